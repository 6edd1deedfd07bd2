package domain

// EmployeeRecord mirrors the record shape held by the employee directory.
// PasswordHash is bcrypt; the directory never stores cleartext.
type EmployeeRecord struct {
	EmployeeID   int    `json:"employeeId"`
	ManagerID    int    `json:"managerId"`
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	Department   string `json:"department"`
	Role         string `json:"role"`
	ShiftID      int    `json:"shiftId"`
	JoinedDate   string `json:"joinedDate"`
}

// Identity derives the caller identity asserted by a directory record.
func (r *EmployeeRecord) Identity() Identity {
	return Identity{Subject: r.Username, Role: Role(r.Role)}
}
