package activity

// Actions recorded in the audit trail.
const (
	AdminLoggedIn       = "ADMIN_LOGGED_IN"
	AdminLoggedOut      = "ADMIN_LOGGED_OUT"
	AdminLoginRejected  = "ADMIN_LOGIN_REJECTED"
	TeacherCreated      = "TEACHER_CREATED"
	CarnetRejected      = "CARNET_REJECTED"
	SubscriptionAdded   = "SUBSCRIPTION_ADDED"
	SubscriptionDeleted = "SUBSCRIPTION_DELETED"
	AccountUpdated      = "ACCOUNT_UPDATED"
	ContentModerated    = "CONTENT_MODERATED"
)
