package minipl

// Version is the interpreter version reported by the CLI.
const Version = "0.3.0"
