// Package timezone provides timezone utilities for the application.
//
// Usage Examples:
//
//  1. Current time in the app timezone, used for server-assigned creation stamps:
//     now := timezone.Now()
//
//  2. Formatting times in app timezone:
//     formatted := timezone.Format(item.CreatedAt, time.RFC3339)
//
// The timezone is configured via the APP_TIMEZONE environment variable and is
// resolved lazily on first use. An empty or unknown name falls back to UTC.
package timezone
