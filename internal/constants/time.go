package constants

import "time"

// StackPollInterval is the interval between stack status checks while waiting.
const StackPollInterval = 5 * time.Second

// StackOperationTimeout caps how long a stack create/update is waited for.
const StackOperationTimeout = 30 * time.Minute

// DefaultCLITimeout is the --timeout flag default. "0" disables the timeout.
const DefaultCLITimeout = "0"

// TestContextTimeout is the timeout for test contexts.
const TestContextTimeout = 5 * time.Second
