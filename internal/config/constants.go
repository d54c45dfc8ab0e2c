package config

import "time"

// Base application details
const AppName = "redmark"
const ConfigDirName = "redmark"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "redmark.log"

// UI Layout
const StatusBarHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

// Editing
const DefaultMaxHistory = 100
const SystemClipboard = true

// Autosave
const DefaultSaveDebounce = 2 * time.Second
const DefaultClientVersion = 1
