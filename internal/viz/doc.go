// Package viz renders moon systems for the terminal.
//
//   - report functions print step listings, energy tables and cycle results
//     in the plain "pos=<...>, vel=<...>" text format
//   - [PlotSeries] draws a line chart with asciigraph
//   - [Canvas] is a Braille pixel canvas used for top-down moon maps
//
// Styling goes through lipgloss and degrades to plain text when the output
// is not a terminal.
package viz
