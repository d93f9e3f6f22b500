// Package pipeline runs the passes over the article dataset in order:
// load, normalize, patch, regenerate, write.
//
// Each Mode selects the passes of one maintenance task. ModeRun performs
// all of them; ModeFix and ModeFixEncoding only clean and patch existing
// files; ModeEmbed computes projection coordinates.
package pipeline
