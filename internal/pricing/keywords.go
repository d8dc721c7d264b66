package pricing

// KeywordAlias maps a weapon-name fragment to its known alternate renderings
// in price feeds. The table is ordered data, not branching logic, so new
// mismatches can be added without touching the resolution algorithm.
type KeywordAlias struct {
	Fragment   string
	Alternates []string
}

// DefaultKeywordAliases lists the weapon-name fragments that are known to be
// rendered differently between the catalog and the common price feeds.
// Earlier entries are tried first; within an entry, alternates are tried in
// order and resolution stops at the first hit.
var DefaultKeywordAliases = []KeywordAlias{
	{Fragment: "M4A1-S", Alternates: []string{"M4A1S", "M4A1 S"}},
	{Fragment: "CZ75-Auto", Alternates: []string{"CZ75 Auto", "CZ75"}},
	{Fragment: "Galil AR", Alternates: []string{"Galil"}},
	{Fragment: "MP5-SD", Alternates: []string{"MP5SD", "MP5 SD"}},
	{Fragment: "USP-S", Alternates: []string{"USPS", "USP S", "USP"}},
	{Fragment: "SSG 08", Alternates: []string{"SSG08"}},
	{Fragment: "Kara Ambit", Alternates: []string{"Karambit"}},
	{Fragment: "Bayonet Knife", Alternates: []string{"Bayonet"}},
	{Fragment: "R8 Revolver", Alternates: []string{"R8"}},
	{Fragment: "Zeus x27", Alternates: []string{"Zeus"}},
}
