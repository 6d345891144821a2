/*
Package editorconfig evaluates widget editor config scripts.

# Overview

Widget authors ship a JavaScript file that may define up to four functions:

  - getProperties(values, defaultProperties): returns the property groups to show
  - check(values): returns a list of {property, message} validation errors
  - getPreview and getCustomCaption: exported but never called here

This package runs those scripts with the goja engine and returns the
filtered property groups, the sorted set of visible property keys, and the
validation errors for the current values.

# Pipeline

Every call runs the same linear pipeline:

 1. Transform: rewrite single-line import/export syntax into plain script
 2. BuildInjection: prepend hidePropertyIn / hidePropertiesIn when missing
 3. Load: run prelude, source and export epilogue once in a fresh runtime
 4. Lookup: check typeof exports.<name> === 'function'
 5. Invoke: pass values as JSON text, JSON.stringify the result, decode it

# Isolation

Each call gets its own runtime on its own goroutine, locked to a dedicated
OS thread for the duration of the call. Nothing is pooled or reused, so one
script can never observe globals left by another. Deep recursion is capped by
a bounded call stack and surfaces as a script error. Panics are recovered and
reported as ErrThreadPanic.

Without a timeout, an infinite loop blocks its worker until the process ends.
Set Config.Timeout or cancel the context to interrupt it.

# Usage Example

	eval := editorconfig.NewEvaluator(editorconfig.DefaultConfig()).
		WithLogger(logger.Logger)

	result, err := eval.Evaluate(ctx, source, values, definition)
	if errors.Is(err, editorconfig.ErrScriptEvaluation) {
		// surface the author's script error
	}

# Limitations

The module rewrite is regex based. Multi-line import lists, aliases inside
export braces and import/export keywords inside string or template literals
are not handled.
*/
package editorconfig
