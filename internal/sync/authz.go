package sync

// HasPermission reports whether the principal carries the permission.
func HasPermission(p *Principal, permission string) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Permissions {
		if have == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the principal carries at least one of
// the permissions.
func HasAnyPermission(p *Principal, permissions ...string) bool {
	for _, perm := range permissions {
		if HasPermission(p, perm) {
			return true
		}
	}
	return false
}

// EnvAllowed reports whether the principal may operate on the environment.
// An empty allowed list means no environment restriction beyond the tenant.
func EnvAllowed(p *Principal, environmentID uint) bool {
	if p == nil {
		return true
	}
	if len(p.AllowedEnvs) == 0 {
		return true
	}
	for _, id := range p.AllowedEnvs {
		if id == environmentID {
			return true
		}
	}
	return false
}
