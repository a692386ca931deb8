package models

// Apk is the aggregate inspection result for one application package.
// Other lists every archive entry that is neither a distinguished entry
// nor a directory, in ZIP directory order.
type Apk struct {
	File
	Name        string      `json:"name"`
	Certificate Certificate `json:"cert"`
	Manifest    Manifest    `json:"manifest"`
	Dex         []Dex       `json:"dex"`
	Other       []File      `json:"other"`
}
