// Package regen derives the computed columns of the article dataset.
//
// Columns are grouped: dates, year, coordinates (x, y), clusters
// (cluster, topic) and targets. A group is either computed in full during a
// run or left exactly as loaded. Groups whose columns already hold values
// are preserved, so repeated runs over the same file are stable.
package regen
