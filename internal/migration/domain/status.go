package domain

// Status derivation is pure and recomputed at creation time, never
// copied from the legacy records. Precedence in each function is fixed.

// UserStatus is PENDING only for users that are both active and
// authenticated; everyone else arrives archived.
func UserStatus(isActive, isAuth bool) string {
	if isActive && isAuth {
		return UserStatusPending
	}
	return UserStatusArchived
}

// UserRole maps the legacy role tag onto the new role set.
func UserRole(appRole string) string {
	switch appRole {
	case "customer":
		return RoleClient
	case "employee":
		return RoleContractor
	case "admin":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// AssignmentStatus classifies an assignment from its flags and the
// already-normalized balance. A negative balance wins over every flag.
func AssignmentStatus(isDeleted, isActive bool, balance float64) string {
	switch {
	case balance < 0:
		return AssignmentStatusNegative
	case isDeleted:
		return AssignmentStatusArchived
	case isActive:
		return AssignmentStatusActive
	default:
		return AssignmentStatusArchived
	}
}

// SubscriptionStatus pauses deleted subscriptions regardless of the
// active flag.
func SubscriptionStatus(isDeleted, isActive bool) string {
	switch {
	case isDeleted:
		return SubscriptionStatusPaused
	case isActive:
		return SubscriptionStatusActive
	default:
		return SubscriptionStatusPaused
	}
}
