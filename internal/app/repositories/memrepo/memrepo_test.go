package memrepo

import (
	"testing"

	"github.com/yigit/examprep/internal/app/repositories/repotest"
)

func TestMemoryRepositories(t *testing.T) {
	repotest.Run(t, NewRepositories())
}
