package permission

import "strings"

const (
	// Wildcard grants every code when granted on its own, and every code
	// sharing a prefix when used as the trailing segment.
	Wildcard = "*"

	// Separator delimits permission code segments.
	Separator = ":"

	ActionList   = "list"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDetail = "detail"
	ActionDelete = "delete"
)

// PathToCode converts a console route path into the permission code that
// guards it.
//
//	/system/user          -> system:user:list
//	/system/user/create   -> system:user:create
//	/system/user/5/edit   -> system:user:edit
//
// path must be non-empty and start with "/". PathToCode is pure.
func PathToCode(path string) string {
	code := strings.ReplaceAll(path, "/", Separator)
	code = strings.TrimPrefix(code, Separator)

	if strings.HasSuffix(code, Separator+ActionCreate) {
		return code
	}

	if strings.HasSuffix(code, Separator+ActionEdit) || strings.HasSuffix(code, Separator+ActionDetail) {
		segments := strings.Split(code, Separator)
		kept := segments[:0]
		for _, s := range segments {
			if isNumeric(s) {
				continue
			}
			kept = append(kept, s)
		}
		return strings.Join(kept, Separator)
	}

	return code + Separator + ActionList
}

// Code joins segments into a permission code.
func Code(segments ...string) string {
	return strings.Join(segments, Separator)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
