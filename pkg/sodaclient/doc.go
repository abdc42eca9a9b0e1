// Package sodaclient provides the primary entry point for constructing a
// Socrata Open Data API client that implements the soda.Client interface.
//
// It layers configuration, credential validation, and the HTTP transport on
// top of the types defined in the soda package. Most applications should
// import sodaclient to build a client, then use the returned soda.Client to
// read datasets.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/soda/pkg/soda"
//	  "github.com/fivetwenty-io/soda/pkg/sodaclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Minimal: just a domain. Anonymous requests work for most published
//	  // datasets but are strictly throttled.
//	  cli, err := sodaclient.New(&soda.Config{Domain: "data.cityofchicago.org"})
//	  if err != nil { log.Fatal(err) }
//	  defer cli.Close()
//
//	  // Or with an application token, which lifts the throttling limits:
//	  cli, err = sodaclient.New(&soda.Config{
//	    Domain:   "data.cityofchicago.org",
//	    AppToken: "your-app-token",
//	  })
//	  if err != nil { log.Fatal(err) }
//	  defer cli.Close()
//
//	  rows, err := cli.Get(ctx, "6zsd-86xi", soda.NewQuery().WithLimit(10))
//	  if err != nil { log.Fatal(err) }
//	  _ = rows
//	}
//
// # Authentication
//
// Restricted resources accept HTTP basic auth (Username/Password) or an OAuth
// 2.0 access token; the two are mutually exclusive and either combines with
// an AppToken. See https://dev.socrata.com/docs/authentication.html
//
// # Helpers
//
// The package also provides convenience constructors NewWithAppToken,
// NewWithBasicAuth, and NewWithOAuthToken that wrap New with the appropriate
// configuration.
package sodaclient
