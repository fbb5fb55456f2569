package service

import (
	"github.com/deppfellow/operator-journal/internal/lib/job"
	"github.com/deppfellow/operator-journal/internal/lib/newsletter"
	"github.com/deppfellow/operator-journal/internal/repository"
	"github.com/deppfellow/operator-journal/internal/server"
)

type Services struct {
	Feed      *FeedService
	Subscribe *SubscribeService
	Post      *PostService
	Job       *job.JobService

	Beehiiv *newsletter.BeehiivClient
	Kit     *newsletter.KitClient
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	beehiiv := newsletter.NewBeehiivClient(s.Config.Newsletter, s.HTTPClient)
	kit := newsletter.NewKitClient(s.Config.Newsletter, s.HTTPClient)
	l := NewLoader(s, repos.FeedCache)

	// A nil *JobService must not become a non-nil interface.
	var notifier SubscriberNotifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Feed:      NewFeedService(l, beehiiv, kit, s.Config.Newsletter.Beehiiv.Limit),
		Subscribe: NewSubscribeService(kit, notifier, s.Metrics, s.Logger),
		Post:      NewPostService(l, beehiiv),
		Job:       s.Job,
		Beehiiv:   beehiiv,
		Kit:       kit,
	}, nil
}
