// Package config holds user settings. The desktop app keeps them in Fyne
// preferences (Settings); the terminal front ends read and write the same
// values as a JSON file (Config).
package config
