// Movie Nexus - External Movie Metadata Integration
// Copyright 2026 Darlene-13
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Darlene-13/movie-nexus

/*
Package models defines the data transfer structures shared across the
Movie Nexus HTTP layer.

This package contains the API request/response envelope, structured error
details, health report types, and the result summaries returned by the
synchronization endpoints. Database entities live in internal/database;
provider wire types live with their provider packages.

Key Components:

  - APIResponse: Standardized API response wrapper
  - APIError: Structured error details with machine-readable codes
  - HealthStatus: Aggregated service health report
  - SeedResult: Summary returned by a catalog seeding run

Usage Example - API Response:

	response := models.APIResponse{
	    Status: "success",
	    Data: map[string]interface{}{
	        "total":  200,
	        "movies": movies,
	    },
	    Metadata: models.Metadata{
	        Timestamp: time.Now().UTC(),
	    },
	}

	json.NewEncoder(w).Encode(response)

Thread Safety:

All models are plain data structures with no internal synchronization.
They are safe for concurrent read access after construction.

See Also:

  - internal/api: HTTP handlers returning these models
  - internal/enrich: Orchestrator producing the sync summaries
  - internal/database: Persistent entities
*/
package models
