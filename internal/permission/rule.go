package permission

import (
	"net/http"

	"github.com/google/uuid"
)

// SafeMethod reports whether the method only reads.
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Rule is a view-level check, run before the handler, paired with an
// object-level check, run once the target object and its owner are known.
type Rule struct {
	View   func(id Identity, method string) bool
	Object func(id Identity, method string, ownerID uuid.UUID) bool
}

func (r Rule) AllowView(id Identity, method string) bool {
	return r.View == nil || r.View(id, method)
}

func (r Rule) AllowObject(id Identity, method string, ownerID uuid.UUID) bool {
	return r.Object == nil || r.Object(id, method, ownerID)
}

// Any grants access when at least one rule does. For objects a rule only
// counts if its view check passes as well.
func Any(rules ...Rule) Rule {
	return Rule{
		View: func(id Identity, method string) bool {
			for _, r := range rules {
				if r.AllowView(id, method) {
					return true
				}
			}
			return false
		},
		Object: func(id Identity, method string, ownerID uuid.UUID) bool {
			for _, r := range rules {
				if r.AllowView(id, method) && r.AllowObject(id, method, ownerID) {
					return true
				}
			}
			return false
		},
	}
}

// All grants access only when every rule does.
func All(rules ...Rule) Rule {
	return Rule{
		View: func(id Identity, method string) bool {
			for _, r := range rules {
				if !r.AllowView(id, method) {
					return false
				}
			}
			return true
		},
		Object: func(id Identity, method string, ownerID uuid.UUID) bool {
			for _, r := range rules {
				if !r.AllowObject(id, method, ownerID) {
					return false
				}
			}
			return true
		},
	}
}
