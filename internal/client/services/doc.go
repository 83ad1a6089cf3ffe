// Package services holds the application services the CLI calls: queue and
// match views, calendar scheduling, and account registration. Services
// combine REST calls with session store transitions; they never hold state
// of their own.
package services
