// Package dataverse provides a client library for the Microsoft Dynamics 365
// Dataverse OData Web API.
//
// The package contains the query option model and its OData compiler, a
// FetchXML query builder, convenience helpers for $filter and $apply
// expressions, the error taxonomy for Web API failures, and the token cache
// backends used by the client for OAuth2 token reuse.
//
// The executing client is constructed through the dvclient package:
//
//	client, err := dvclient.New(&dataverse.Config{
//	    APIURL:       "https://org.api.crm4.dynamics.com/api/data/v9.1",
//	    TokenURL:     "https://login.microsoftonline.com/tenant/oauth2/token",
//	    ClientID:     "...",
//	    ClientSecret: "...",
//	    Scope:        []string{"https://org.api.crm4.dynamics.com/.default"},
//	})
package dataverse
