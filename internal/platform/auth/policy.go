package auth

import "fmt"

// Role is the closed set of account roles. Anything outside these three is
// rejected at token decode.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// AllRoles enumerates every role, in policy-table order.
var AllRoles = []Role{RoleAdmin, RoleDoctor, RolePatient}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDoctor || r == RolePatient
}

// Verdict is the policy outcome for an (operation, role) pair.
type Verdict int

const (
	// Deny rejects the request with 403 before the handler runs.
	Deny Verdict = iota
	// Allow admits the request unconditionally.
	Allow
	// AllowIfOwner admits the request only if the caller owns the resource;
	// the handler resolves the owner id(s) and calls EnforceOwnership.
	AllowIfOwner
)

// Operation names a protected endpoint in the policy table.
type Operation string

const (
	OpUserSelf Operation = "users.me"
	OpUserList Operation = "users.list"

	OpPatientList   Operation = "patients.list"
	OpPatientSelf   Operation = "patients.me"
	OpPatientRead   Operation = "patients.read"
	OpPatientCreate Operation = "patients.create"
	OpPatientUpdate Operation = "patients.update"
	OpPatientDelete Operation = "patients.delete"

	OpDoctorList   Operation = "doctors.list"
	OpDoctorSelf   Operation = "doctors.me"
	OpDoctorRead   Operation = "doctors.read"
	OpDoctorCreate Operation = "doctors.create"
	OpDoctorUpdate Operation = "doctors.update"
	OpDoctorDelete Operation = "doctors.delete"

	OpConsultationCreate Operation = "consultations.create"
	OpConsultationList   Operation = "consultations.list"
	OpConsultationRead   Operation = "consultations.read"
	OpConsultationUpdate Operation = "consultations.update"
	OpConsultationDelete Operation = "consultations.delete"

	OpRecordCreate Operation = "records.create"
	OpRecordList   Operation = "records.list"
	OpRecordRead   Operation = "records.read"
)

// policies is the single source of truth for role-level authorization. It is
// populated here, checked for exhaustiveness in init, and never written to
// again; request handling only reads it.
var policies = map[Operation]map[Role]Verdict{
	OpUserSelf: {RoleAdmin: Allow, RoleDoctor: Allow, RolePatient: Allow},
	OpUserList: {RoleAdmin: Allow, RoleDoctor: Deny, RolePatient: Deny},

	OpPatientList:   {RoleAdmin: Allow, RoleDoctor: Allow, RolePatient: Deny},
	OpPatientSelf:   {RoleAdmin: Deny, RoleDoctor: Deny, RolePatient: Allow},
	OpPatientRead:   {RoleAdmin: Allow, RoleDoctor: Allow, RolePatient: AllowIfOwner},
	OpPatientCreate: {RoleAdmin: Allow, RoleDoctor: Deny, RolePatient: Deny},
	OpPatientUpdate: {RoleAdmin: Allow, RoleDoctor: Allow, RolePatient: Deny},
	OpPatientDelete: {RoleAdmin: Allow, RoleDoctor: Deny, RolePatient: Deny},

	OpDoctorList:   {RoleAdmin: Allow, RoleDoctor: Allow, RolePatient: Allow},
	OpDoctorSelf:   {RoleAdmin: Deny, RoleDoctor: Allow, RolePatient: Deny},
	OpDoctorRead:   {RoleAdmin: Allow, RoleDoctor: Allow, RolePatient: Allow},
	OpDoctorCreate: {RoleAdmin: Allow, RoleDoctor: Deny, RolePatient: Deny},
	OpDoctorUpdate: {RoleAdmin: Allow, RoleDoctor: Deny, RolePatient: Deny},
	OpDoctorDelete: {RoleAdmin: Allow, RoleDoctor: Deny, RolePatient: Deny},

	OpConsultationCreate: {RoleAdmin: Allow, RoleDoctor: Deny, RolePatient: AllowIfOwner},
	OpConsultationList:   {RoleAdmin: Allow, RoleDoctor: Allow, RolePatient: Allow},
	OpConsultationRead:   {RoleAdmin: Allow, RoleDoctor: AllowIfOwner, RolePatient: AllowIfOwner},
	OpConsultationUpdate: {RoleAdmin: Allow, RoleDoctor: AllowIfOwner, RolePatient: Deny},
	OpConsultationDelete: {RoleAdmin: Allow, RoleDoctor: Deny, RolePatient: Deny},

	OpRecordCreate: {RoleAdmin: Allow, RoleDoctor: Allow, RolePatient: Deny},
	OpRecordList:   {RoleAdmin: Allow, RoleDoctor: Allow, RolePatient: Allow},
	OpRecordRead:   {RoleAdmin: Allow, RoleDoctor: Allow, RolePatient: AllowIfOwner},
}

// PolicyFor returns the verdict for an (operation, role) pair. Unknown
// operations and roles deny.
func PolicyFor(op Operation, role Role) Verdict {
	verdicts, ok := policies[op]
	if !ok {
		return Deny
	}
	v, ok := verdicts[role]
	if !ok {
		return Deny
	}
	return v
}

// Operations lists every operation in the policy table.
func Operations() []Operation {
	ops := make([]Operation, 0, len(policies))
	for op := range policies {
		ops = append(ops, op)
	}
	return ops
}

func init() {
	// A route whose policy is missing a role would silently deny; make that
	// a startup failure instead.
	for op, verdicts := range policies {
		for _, r := range AllRoles {
			if _, ok := verdicts[r]; !ok {
				panic(fmt.Sprintf("auth: policy for %q missing verdict for role %q", op, r))
			}
		}
	}
}
