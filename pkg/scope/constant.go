package scope

const (
	// RoleResponder marks tokens issued to security personnel.
	RoleResponder = "RESPONDER"
	// RoleResident marks tokens issued to community residents.
	RoleResident = "RESIDENT"
	// RoleAdmin marks tokens allowed to act on behalf of any subject.
	RoleAdmin = "ADMIN"
)
