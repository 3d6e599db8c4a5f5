package container

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-directory/config"
	userapp "github.com/oksasatya/go-user-directory/internal/application"
	repo "github.com/oksasatya/go-user-directory/internal/domain/repository"
	esinfra "github.com/oksasatya/go-user-directory/internal/infrastructure/elasticsearch"
	pginfra "github.com/oksasatya/go-user-directory/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-directory/internal/infrastructure/randomuser"
	"github.com/oksasatya/go-user-directory/pkg/helpers"
)

var (
	servicesOnce sync.Once
	userStore    *pginfra.UserRepository
	userService  *userapp.Service
)

// UserStore returns the Postgres user repository. Set the pool first.
func UserStore() *pginfra.UserRepository {
	buildServices()
	return userStore
}

// UserService returns the directory service wired from the configured singletons.
// Optional pieces (lock, events, search index) are attached only when their
// client has been set and the config enables them.
func UserService() *userapp.Service {
	buildServices()
	return userService
}

// UserIndex returns the Elasticsearch user index, or nil without a client.
func UserIndex() *esinfra.UserIndex {
	c := GetConfig()
	if esClient == nil {
		return nil
	}
	return esinfra.NewUserIndex(esClient, c.ESUsersIndex, c.ESSearchSize, GetLogger())
}

func buildServices() {
	servicesOnce.Do(func() {
		c := GetConfig()
		log := GetLogger()

		userStore = pginfra.NewUserRepository(pgPool)
		source := randomuser.NewClient(c.RandomUserBaseURL, c.RandomUserTimeout, log)

		svc := userapp.NewService(userStore, source, log)
		svc.LockTTL = c.PopulateLockTTL
		svc.PopulateTimeout = c.PopulateTimeout
		svc.WaitInterval = c.PopulateWaitInterval

		if c.PopulateLockEnabled && redisClient != nil {
			svc.Locker = helpers.NewRedisLocker(redisClient)
		}
		if c.EventsEnabled && rabbitPub != nil {
			svc.Events = rabbitPub
		}
		if searcher := searcherFor(c, UserIndex(), svc.Events != nil, log); searcher != nil {
			svc.Searcher = searcher
		}
		userService = svc
	})
}

// UserIndexSync copies stored users into the Elasticsearch index, or is nil
// without a client.
func UserIndexSync() *userapp.IndexSync {
	idx := UserIndex()
	if idx == nil {
		return nil
	}
	return userapp.NewIndexSync(UserStore(), idx, GetLogger())
}

// searcherFor picks the Elasticsearch index only when it is kept in step with
// the store: the index must exist and population events must reach the index
// worker. A nil result means search stays on Postgres.
func searcherFor(c *config.Config, idx *esinfra.UserIndex, eventsWired bool, log *logrus.Logger) repo.UserSearcher {
	if !c.UseElasticsearchSearch() {
		return nil
	}
	switch {
	case idx == nil:
		log.Warn("SEARCH_BACKEND=elasticsearch but no client configured, searching postgres")
		return nil
	case !c.EventsEnabled || !eventsWired:
		log.Warn("SEARCH_BACKEND=elasticsearch needs EVENTS_ENABLED and a reachable broker to keep the index fed, searching postgres")
		return nil
	}
	return idx
}
