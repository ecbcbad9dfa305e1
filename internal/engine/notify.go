package engine

// Notify is invoked after every committed mutation affecting a session's
// queue, roster or status. It runs outside the session lock, after the
// transaction has committed. The server wires it to the broadcast hub so the
// presentation layer can re-render from fresh reads; tests leave the no-op.
var Notify = func(sessionID uint) {}
