package keycloak

import (
	"encoding/json"
	"strings"

	"github.com/uniport/campus-api/internal/domain/model"
)

// The directory's creation endpoint returns a JSON array of one user object
// immediately followed, outside the array, by a dangling
// `"init-password": "<value>"` field. The whole body is not valid JSON, so
// the user record is recovered by slicing off the array portion. Once the
// upstream defect is fixed this file can be deleted without touching any
// other component.

const initPasswordKey = `"init-password"`

// parseCreateResponse extracts the created user from the malformed creation
// response. It returns nil when no record can be recovered; the create
// already committed server-side, so no failure here may escape as a panic
// or an error.
func parseCreateResponse(raw string) *model.DirectoryUser {
	end := userArrayEnd(raw)
	if end < 0 {
		return nil
	}

	var users []model.DirectoryUser
	if err := json.Unmarshal([]byte(raw[:end+1]), &users); err != nil {
		return nil
	}
	if len(users) == 0 {
		return nil
	}
	return &users[0]
}

// userArrayEnd locates the closing bracket of the user array: the last ']'
// separated from the "init-password" key only by whitespace. When the key is
// absent, or nothing but whitespace-separated ']' precedes it, the last ']'
// anywhere in the text is used instead.
func userArrayEnd(raw string) int {
	if idx := strings.LastIndex(raw, initPasswordKey); idx >= 0 {
		for i := idx - 1; i >= 0; i-- {
			c := raw[i]
			if c == ']' {
				return i
			}
			if !isJSONSpace(c) {
				break
			}
		}
	}
	return strings.LastIndexByte(raw, ']')
}

// extractInitPassword returns the value of the dangling "init-password"
// field, or "" when it cannot be found. The value is informational only and
// its absence never fails a parse.
func extractInitPassword(raw string) string {
	idx := strings.Index(raw, initPasswordKey)
	if idx < 0 {
		return ""
	}

	rest := raw[idx+len(initPasswordKey):]
	open := strings.IndexByte(rest, '"')
	if open < 0 {
		return ""
	}
	closing := strings.IndexByte(rest[open+1:], '"')
	if closing < 0 {
		return ""
	}
	return rest[open+1 : open+1+closing]
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
