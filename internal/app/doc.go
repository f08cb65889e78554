// Package app wires the schedule combiner web service together: it loads
// configuration, initializes logging and OpenTelemetry, builds the services
// and the chi router, and runs the HTTP server until it is told to stop.
//
// # Initialization Flow
//
//  1. Load configuration (defaults, YAML file, environment)
//  2. Initialize logging and observability
//  3. Create the schedule and health services
//  4. Set up middleware and routes
//  5. Create the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run stops on SIGINT or SIGTERM. In-flight requests get up to
// Server.ShutdownTimeout to complete, then telemetry providers are
// flushed.
//
// # Error Handling
//
// Initialization errors are returned to the caller; the package never
// calls os.Exit.
package app
