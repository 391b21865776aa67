/*
Package bookkeeping provides ready-made background tasks for the slow, periodic
work that runs next to a compute loop: checkpoints, dataset dumps, progress
observers.

Scheduled tasks:

Cron and Every turn a job into a background.Task that is due according to a
cron expression or a fixed interval. Every worker of the pool scans the task,
but exactly one of them claims each due time; the others see it as having no
work. Firings missed while the pool was busy collapse into one.

	s, err := bookkeeping.Cron("checkpoint", 5, "@every 30s", func(ctx context.Context, workerID int) {
		model.Checkpoint(ctx)
	})
	if err != nil {
		return err
	}
	pool.AddTask(s.Task())

Cron expressions use the robfig/cron syntax with an optional leading seconds
field and descriptors such as @hourly or @every 1m.

Redis observer:

RedisObserver publishes pool counters to a Redis hash, and optionally a
pub/sub channel, so a dashboard can follow a long run from elsewhere. Its Task
method schedules the publication on the background pool itself.
*/
package bookkeeping
