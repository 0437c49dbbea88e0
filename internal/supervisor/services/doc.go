// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

/*
Package services adapts long-running components to suture.Service.

  - HTTPServerService runs the chi router behind an *http.Server and drains
    it on shutdown.
  - IndexWarmerService periodically reloads the recipe index so the cache
    stays warm between writes.

Every service implements fmt.Stringer so suture's event hook can name it.
*/
package services
