package shared

import "testing"

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.MaxOpenConns != 4 {
			t.Errorf("expected max_open_conns 4, got %d", config.Database.MaxOpenConns)
		}

		if config.Worker.BatchSize != 60 {
			t.Errorf("expected batch_size 60, got %d", config.Worker.BatchSize)
		}

		if config.Worker.SearchWorkers != 8 {
			t.Errorf("expected search_workers 8, got %d", config.Worker.SearchWorkers)
		}

		if config.Worker.QPS != 5.0 {
			t.Errorf("expected qps 5.0, got %v", config.Worker.QPS)
		}

		if config.Credentials.Spotify.RedirectURI == "" {
			t.Error("expected a default spotify redirect_uri")
		}
	})
}
