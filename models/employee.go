package models

// Employee is a resource (staff member) assignable to slots. A consecutive
// allocation requires all units of one booking to share the same employee.
type Employee struct {
	ID         string   `bson:"id" json:"id"`
	TenantID   string   `bson:"tenant_id" json:"tenantId"`
	Name       string   `bson:"name" json:"name"`
	Active     bool     `bson:"active" json:"active"`
	ServiceIDs []string `bson:"service_ids" json:"serviceIds"` // services this employee is assigned to
}
