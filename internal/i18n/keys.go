// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthLoginSuccess       = "auth.login_success"

	// Users
	KeyUserProfileUpdated  = "user.profile_updated"
	KeyUserPasswordChanged = "user.password_changed"
	KeyAddressAdded        = "address.added"
	KeyAddressUpdated      = "address.updated"
	KeyAddressDeleted      = "address.deleted"
	KeyAddressDefaultSet   = "address.default_set"

	// Products
	KeyProductCreated     = "product.created"
	KeyProductUpdated     = "product.updated"
	KeyProductDeleted     = "product.deleted"
	KeyProductBulkUpdated = "product.bulk_updated"
	KeyProductBulkDeleted = "product.bulk_deleted"

	// Orders
	KeyOrderStatusUpdated    = "order.status_updated"
	KeyOrderStatusProgressed = "order.status_progressed"

	// Payments
	KeyPaymentGatewayError = "payment.gateway_error"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess  = "file.upload_success"
	KeyFilesUploadSuccess = "file.uploads_success"
	KeyFileDeleted        = "file.deleted"
	KeyFileMissing        = "file.missing"
	KeyFileTooMany        = "file.too_many"

	// Generic
	KeyInternalError     = "error.internal"
	KeyRateLimitExceeded = "error.rate_limited"
)
