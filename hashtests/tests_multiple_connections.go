package hashtests

func DoMultipleConnectionTests(t *T) {
	t.Run("concurrent sessions with distinct seeds", func(t *T) {
		seeds := t.Config().ConnectionSeeds()
		t.Debug("Opening %d connections", len(seeds))
		result := t.RunSessions(seeds...)
		t.RequireSessionsOK(result)
	})
}
