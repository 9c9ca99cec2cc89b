package audio

import "strings"

// baseExtensions is the default set of accepted audio extensions.
var baseExtensions = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"ogg":  true,
	"flac": true,
	"m4a":  true,
}

// extendedExtensions extends the base set with formats produced by phones
// and messaging apps.
var extendedExtensions = map[string]bool{
	"mp4":  true,
	"wma":  true,
	"aac":  true,
	"opus": true,
	"3gp":  true,
}

// AllowedFile reports whether filename has an accepted audio extension.
// The check is extension-only: the suffix after the last dot, lowercased.
// A name without a dot is rejected.
func AllowedFile(filename string, extended bool) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	ext := strings.ToLower(filename[idx+1:])
	if baseExtensions[ext] {
		return true
	}
	return extended && extendedExtensions[ext]
}
