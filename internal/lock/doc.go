// Package lock is the keypad door lock core.
//
// Three tasks run on independent tickers and talk only through small
// shared records:
//
//	SessionController  (scan tick, ~4ms)   reads the keypad, owns the entry
//	                                        buffer, writes the stage and the
//	                                        buzzer pattern, drives relay and
//	                                        indicators
//	CountdownTimer     (1s tick)           counts seconds in the current
//	                                        stage and raises expiry
//	BuzzerSequencer    (~16ms tick)        plays the assigned pattern on the
//	                                        buzzer or doorbell pin
//
// Each field of TimerState and BuzzerState has one writer. Multi-field
// updates (stage plus elapsed, pattern plus tick count) happen under the
// record's mutex, so no task ever sees a new stage with a stale count.
//
// Each task exposes Tick so tests can drive time by hand. Appliance runs
// them on real tickers under an errgroup.
package lock
