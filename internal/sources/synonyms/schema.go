package synonyms

// File is the on-disk shape of the synonym table.
//
// Each entry under synonyms is one equivalence class: every member is
// interchangeable for search expansion. Example:
//
//	synonyms:
//	  - ["かわいい", "カワイイ", "かわよ"]
//	  - ["コマーシャル", "CM"]
type File struct {
	Synonyms [][]string `yaml:"synonyms"`
}
