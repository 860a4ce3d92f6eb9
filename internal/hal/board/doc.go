// Package board is the hardware backend for the keypad lock on a
// single-board computer. Pins are resolved by name through periph.io.
//
// Wiring:
//
//	rows     outputs, idle high, driven low while scanned
//	columns  inputs with pull-ups; a closed switch on the driven row reads low
//	outputs  relay, indicators, buzzer and doorbell are active high
package board
