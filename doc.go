// Package stripsep is a 2D irregular strip-packing solver built around an
// overlap-tolerant local search: items are allowed to overlap during the
// search, guided down a smooth overlap-proxy gradient, and only reported
// back once overlap has been driven to zero.
//
// The module is organized by component:
//
//	geo/        — rigid transforms, items, and surrogate (pole/pier) geometry
//	pk/         — opaque, generation-safe placed-item handles
//	layout/     — the placed-item store and collision-detection contract
//	overlap/    — the two continuous overlap-proxy scalar measures
//	tracker/    — pairwise overlap/weight bookkeeping and weight adaptation
//	evaluator/  — scoring a single candidate placement
//	sampler/    — candidate placement search (Monte-Carlo + coordinate descent)
//	terminator/ — cooperative deadline/interrupt signalling
//	separator/  — the outer relocation loop and worker-pool concurrency model
//	optimizer/  — the explore/compress driver built on top of the separator
//	instance/   — JSON instance parsing
//	render/     — solution snapshot to JSON/SVG
//	runconfig/  — CLI-facing TOML configuration
//	cmd/stripsep/ — the solve/render command-line tool
//
// A typical run loads an instance, builds an optimizer.Driver, and calls
// Solve with a deadline; the result is a SolutionSnapshot giving each
// item's final transform and the achieved strip width.
package stripsep
