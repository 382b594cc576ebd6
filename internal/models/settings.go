package models

import "strings"

// Field describes one editable setting of a new module
type Field struct {
	Key         string
	Help        string
	Placeholder string
}

// Fields defines the required information for a new module
var Fields = []Field{
	{Key: KeyName, Help: "Name of your role", Placeholder: "My Module"},
	{Key: KeyAuthor, Help: "Your name <@yourhandle>", Placeholder: "Jane Doe <@jdoe>"},
	{Key: KeyUpdated, Help: "Date module last updated", Placeholder: "YYYY-MM-DD"},
	{Key: KeyCategory, Help: "exploitation, tunnels, etc.", Placeholder: "exploitation"},
	{Key: KeyDescription, Help: "A brief (~20-word) description of your module.", Placeholder: ""},
	{Key: KeyInstructions, Help: "", Placeholder: ""},
	{Key: KeyURL, Help: "URL for the original work", Placeholder: "https://"},
}

// MatchSetting splits "<setting> <value>" input into its key and value.
// Keys may contain spaces, so the longest key that prefixes the line wins.
func MatchSetting(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	lower := strings.ToLower(line)
	for _, f := range Fields {
		if len(f.Key) <= len(key) {
			continue
		}
		if lower == f.Key || strings.HasPrefix(lower, f.Key+" ") {
			key = f.Key
		}
	}
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(line[len(key):]), true
}
