package deploy_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trinity-method/trinity-sdk/pkg/deploy"
)

func TestUpdateStats_Concurrent(t *testing.T) {
	stats := deploy.NewUpdateStats()

	var wg sync.WaitGroup
	for _, name := range []string{"agents", "commands", "templates", "knowledge-base"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				stats.Inc(name)
			}
		}(name)
	}
	wg.Wait()

	assert.Equal(t, 400, stats.Total())
	assert.Equal(t, 100, stats.Get("agents"))
	assert.Equal(t, map[string]int{"agents": 100, "commands": 100, "templates": 100, "knowledge-base": 100}, stats.Counts())
}

func TestUpdateStats_CountsIsCopy(t *testing.T) {
	stats := deploy.NewUpdateStats()
	stats.Add("agents", 3)

	counts := stats.Counts()
	counts["agents"] = 99

	assert.Equal(t, 3, stats.Get("agents"))
	assert.Equal(t, 0, stats.Get("missing"))
}
