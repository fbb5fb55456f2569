package email

import "github.com/deppfellow/operator-journal/internal/config"

// SendNewSubscriberEmail tells the owner that subscriber joined the list.
func (c *Client) SendNewSubscriberEmail(owner, subscriber, subscribedAt string) error {
	data := map[string]string{
		"SiteName":        config.SiteName,
		"SubscriberEmail": subscriber,
		"SubscribedAt":    subscribedAt,
	}

	return c.SendEmail(
		owner,
		"New subscriber: "+subscriber,
		TemplateNewSubscriber,
		data,
	)
}
