//go:build linux

package process_linux

import (
	"sync"

	"github.com/AstromechZA/etcpwdparse"
	"github.com/Moonlight-Companies/gologger/logger"
)

// DefaultPasswd is the user database consulted for uid lookups
const DefaultPasswd = "/etc/passwd"

// userCache resolves uids through a passwd file. A failed reload keeps the
// previously loaded entries.
type userCache struct {
	path  string
	mu    sync.RWMutex
	cache *etcpwdparse.EtcPasswdCache
}

func newUserCache(path string) *userCache {
	return &userCache{path: path}
}

func (u *userCache) refresh(log *logger.Logger) {
	cache := etcpwdparse.NewEtcPasswdCache(true)
	if err := cache.LoadFromPath(u.path); err != nil {
		log.Debugln("Unable to load", u.path, "username lookup may fail:", err)
		return
	}

	u.mu.Lock()
	u.cache = cache
	u.mu.Unlock()
}

func (u *userCache) lookup(uid int) (string, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	if u.cache == nil {
		return "", false
	}
	entry, ok := u.cache.LookupUserByUid(uid)
	if !ok {
		return "", false
	}
	return entry.Username(), true
}
