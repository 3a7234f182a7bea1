package database

// Mongo collection names
const (
	CollectionAppointments     = "appointments"
	CollectionDoctors          = "doctors"
	CollectionUsers            = "users"
	CollectionPlans            = "plans"
	CollectionCRM              = "crms"
	CollectionContacts         = "contacts"
	CollectionContactMessages  = "contactmessages"
	CollectionSchemaMigrations = "schema_migrations"
)
