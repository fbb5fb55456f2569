package email

// PreviewData holds sample template data for `journal preview-email`.
var PreviewData = map[Template]map[string]string{
	TemplateNewSubscriber: {
		"SiteName":        "The Operator's Handbook",
		"SubscriberEmail": "reader@example.com",
		"SubscribedAt":    "2026-01-05T09:30:00.000Z",
	},
}
