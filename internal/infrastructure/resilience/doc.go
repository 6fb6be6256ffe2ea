/*
Package resilience provides a circuit breaker for optional remote collaborators.

The audit pipeline never fails because an embedding or generation service is
down; it falls back to local behavior. The breaker keeps a dead service from
costing a full timeout on every audit.

# Usage

	breaker := resilience.New("embeddings", resilience.Settings{
		FailureThreshold: 3,
		Cooldown:         30 * time.Second,
	})

	err := breaker.Do(func() error {
		return client.Embed(ctx, chunks)
	})
	if errors.Is(err, resilience.ErrOpen) {
		// use the local embedding
	}

# States

	Closed --[threshold failures]-> Open --[cooldown]-> Half-Open --[probe ok]-> Closed
	                                                        |
	                                                  [probe fails]
	                                                        v
	                                                      Open
*/
package resilience
