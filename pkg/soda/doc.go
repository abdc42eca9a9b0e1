// Package soda provides types, interfaces, and helpers for working with the
// Socrata Open Data API (SODA).
//
// # Overview
//
// The soda package defines the domain types (Row, Metadata, CatalogPage,
// Attachment), the query builders (Query, CatalogQuery), the error types, and
// the Client interface for read access to a Socrata domain. A concrete
// implementation is provided by the sodaclient package, which wires
// configuration, transport, and authentication. Most consumers should import
// sodaclient to construct a client and then work with the interfaces exposed
// here.
//
// Getting a client
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
//	  cli, err := sodaclient.New(&soda.Config{Domain: "data.cityofchicago.org"})
//	  if err != nil { log.Fatal(err) }
//	  defer cli.Close()
//
//	  rows, err := cli.Get(ctx, "6zsd-86xi", soda.NewQuery().WithLimit(10))
//	  if err != nil { log.Fatal(err) }
//	  _ = rows
//	}
//
// # Queries and pagination
//
// Use Query to express SoQL options ($select, $where, $order, $group, $q,
// $query, $limit, $offset) and arbitrary field-equality filters. Large
// datasets are read page by page with the lazy iterator:
//
//	it := cli.GetAll(ctx, "6zsd-86xi", nil)
//	for it.HasNext() {
//	  row, err := it.Next()
//	  if err != nil { break }
//	  _ = row
//	}
//
// # Errors
//
// Remote failures are represented by APIError (carrying the parsed Socrata
// error envelope), decode failures by DecodeError, and network failures by
// TransportError. Configuration problems surface as static sentinel errors.
// Helpers such as IsNotFound and IsThrottled make it easy to branch on common
// cases.
//
// # Interceptors
//
// The package includes request/response interceptors for logging and header
// injection. A chain set on Config.Interceptors runs around every request
// the client makes; applications with advanced needs can also use the
// primitives directly.
package soda
