package config

// SampleConfig returns a fully commented configuration file
func SampleConfig() string {
	return `# kcalc configuration
version: "1.0"

calculator:
  # expression: free-text buffer with precedence and parentheses
  # operator:   one pending operator, evaluated left to right
  mode: expression
  # start the TUI with the scientific keypad (sin cos tan √ ^ log ( ) π e %)
  scientific: false
  # how long the display shakes after an invalid key or '='
  shake_duration: 400ms

display:
  # results whose shortest form reaches this many characters use exponent notation
  exponent_threshold: 12
  # fractional digits shown in exponent notation
  exponent_digits: 6
  # dark | light | high-contrast
  theme: dark
  # set to false for ASCII fallbacks (pi, sqrt, <-)
  unicode: true

output:
  # text | json | csv | markdown
  default_format: text
  # auto | always | never
  color_mode: auto
  verbose: false

history:
  # append every finalized calculation to the session tape
  enabled: false
  path: ~/.local/share/kcalc/tape.log
  # 0 keeps every entry
  max_entries: 1000
`
}

// MinimalSampleConfig returns a compact configuration with essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
calculator:
  mode: expression
display:
  theme: dark
output:
  default_format: text
`
}
