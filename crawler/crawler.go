package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/coronavirus-calculator/external/jhu"
	"github.com/bitmark-inc/coronavirus-calculator/snapshot"
)

type Cron interface {
	Run(ctx context.Context) bool
}

// uploader - write access to the disease snapshot cache
type uploader interface {
	Upload(ctx context.Context, objectName string, data []byte) bool
}

type snapshotCrawler struct {
	fetcher jhu.Fetcher
	cache   uploader
	object  string
}

// Run fetches the live disease data and replaces the cache object with it.
func (c snapshotCrawler) Run(ctx context.Context) bool {
	s, err := c.fetcher.Fetch(ctx)
	if nil != err {
		log.WithFields(log.Fields{"prefix": logPrefix, "error": err}).Error("data from JHU")
		return false
	}

	log.WithFields(log.Fields{
		"prefix":  logPrefix,
		"full":    len(s.FullTable),
		"latest":  len(s.LatestTable),
		"fetched": s.FetchedAt,
	}).Debug("data from JHU")

	data, err := snapshot.Encode(s)
	if err != nil {
		log.WithFields(log.Fields{"prefix": logPrefix, "error": err}).Error("encode snapshot")
		return false
	}

	if !c.cache.Upload(ctx, c.object, data) {
		log.WithFields(log.Fields{"prefix": logPrefix, "object": c.object}).Error("upload snapshot")
		return false
	}

	log.WithFields(log.Fields{"prefix": logPrefix, "object": c.object, "size": len(data)}).Info("snapshot uploaded")
	return true
}

// newCrawler - new job refreshing the cached snapshot
func newCrawler(fetcher jhu.Fetcher, cache uploader, object string) Cron {
	return &snapshotCrawler{
		fetcher: fetcher,
		cache:   cache,
		object:  object,
	}
}
