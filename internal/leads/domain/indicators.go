package domain

// Economic indicator keys in canonical (underscore) spelling.
const (
	KeyEmpVarRate   = "emp_var_rate"
	KeyConsPriceIdx = "cons_price_idx"
	KeyConsConfIdx  = "cons_conf_idx"
	KeyEuribor3m    = "euribor3m"
	KeyNrEmployed   = "nr_employed"
)

// Indicator is a labelled economic indicator.
type Indicator struct {
	Key   string
	Label string
}

// EconomicIndicators lists the bank-dataset macro indicators in report order.
var EconomicIndicators = []Indicator{
	{KeyEmpVarRate, "Employment Variation Rate"},
	{KeyConsPriceIdx, "Consumer Price Index"},
	{KeyConsConfIdx, "Consumer Confidence Index"},
	{KeyEuribor3m, "Euribor 3 Month Rate"},
	{KeyNrEmployed, "Number of Employees"},
}

var dotAliases = map[string]string{
	"emp.var.rate":   KeyEmpVarRate,
	"cons.price.idx": KeyConsPriceIdx,
	"cons.conf.idx":  KeyConsConfIdx,
	"nr.employed":    KeyNrEmployed,
}

// CanonicalKey maps a dot-spelled indicator to its underscore spelling and
// returns every other key unchanged.
func CanonicalKey(key string) string {
	if canonical, ok := dotAliases[key]; ok {
		return canonical
	}
	return key
}

// ProfileExcluded reports whether key is kept out of the lead profile table:
// request metadata and every spelling of the economic indicators.
func ProfileExcluded(key string) bool {
	switch key {
	case "dataset_type", "model_type":
		return true
	}
	if _, ok := dotAliases[key]; ok {
		return true
	}
	for _, ind := range EconomicIndicators {
		if ind.Key == key {
			return true
		}
	}
	return false
}
