package common

import "time"

const (
	// MaxApplicationBody limits form and JSON bodies on the application endpoint.
	MaxApplicationBody = 64 << 10
	// MaxAdminListLimit caps the admin listing page.
	MaxAdminListLimit = 100
	// RequestTimeout bounds the persistence work of one request.
	RequestTimeout = 5 * time.Second
)
