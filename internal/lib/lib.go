// Package lib holds the modules that do not fit strictly into other layers.
//
// It contains the newsletter provider clients (Beehiiv RSS, Kit scraping and
// subscribe), background job processing (Redis/Asynq), the Resend email
// client and small shared utilities.
package lib
