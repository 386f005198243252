package buildoptions

// CallStackCeiling bounds nested interpreter call depth (one Go call per JS
// call — see internal/interpreter.Interpreter.invoke). Exceeding it raises
// the same RangeError a runaway Go call stack would eventually panic on,
// well before that happens. A Runtime's Config can override this default
// via WithCallStackCeiling.
const CallStackCeiling = 1024
