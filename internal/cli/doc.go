// Package cli implements the interactive Pad shell: a read–eval–print
// loop over the diary, folder and task services, with sign-in against the
// remote data service and background sync of queued changes.
//
// The REPL dispatches one command per line. Command handlers live on App;
// runREPL only parses and routes, which keeps it testable against a stub.
package cli
