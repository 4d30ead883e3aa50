package permission

import "github.com/google/uuid"

func always(Identity, string) bool { return true }

func alwaysObject(Identity, string, uuid.UUID) bool { return true }

var (
	AdminOnly = Rule{
		View: func(id Identity, _ string) bool { return id.IsAdmin() },
		Object: func(id Identity, _ string, _ uuid.UUID) bool {
			return id.IsAdmin()
		},
	}

	ModeratorOnly = Rule{
		View: func(id Identity, _ string) bool { return id.IsModerator() },
		Object: func(id Identity, _ string, _ uuid.UUID) bool {
			return id.IsModerator()
		},
	}

	// IsOwnerOrReadOnly lets plain users write, and only to what they own.
	IsOwnerOrReadOnly = Rule{
		View: func(id Identity, method string) bool {
			return SafeMethod(method) || id.IsUser()
		},
		Object: func(id Identity, method string, ownerID uuid.UUID) bool {
			return SafeMethod(method) || id.Owns(ownerID)
		},
	}

	AdminOrReadOnly = Rule{
		View: func(id Identity, method string) bool {
			return SafeMethod(method) || id.IsAdmin()
		},
		Object: alwaysObject,
	}

	IsOwnerAdminModeratorOrReadOnly = Rule{
		View: always,
		Object: func(id Identity, method string, ownerID uuid.UUID) bool {
			if SafeMethod(method) {
				return true
			}
			return id.Owns(ownerID) || id.IsAdmin() || id.IsModerator()
		},
	}

	IsAuthenticated = Rule{
		View:   func(id Identity, _ string) bool { return id.Authenticated() },
		Object: alwaysObject,
	}

	AuthenticatedOrReadOnly = Rule{
		View: func(id Identity, method string) bool {
			return SafeMethod(method) || id.Authenticated()
		},
		Object: alwaysObject,
	}
)

// Per-resource compositions.
var (
	Users    = AdminOnly
	Me       = IsAuthenticated
	Catalog  = AdminOrReadOnly
	Reviews  = All(IsOwnerAdminModeratorOrReadOnly, AuthenticatedOrReadOnly)
	Comments = Any(IsOwnerOrReadOnly, ModeratorOnly, AdminOnly)
)
