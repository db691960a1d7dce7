// Package retention prunes stored validation reports by age and by count,
// either on demand or on a cron schedule.
package retention
