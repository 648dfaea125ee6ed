// Package pipeline provides lazy, pull-based sequences. Each operator pulls
// from the previous one on demand, so work after a TakeThrough stop is never
// started.
//
//	results := pipeline.TakeThrough(
//	    pipeline.Map(pipeline.FromSlice(stages), runStage),
//	    func(r Result) bool { return r.Status == StatusFailed },
//	)
//	all, err := pipeline.Collect(ctx, results)
package pipeline
