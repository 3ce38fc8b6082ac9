// Package github reads repository content through the GitHub contents API.
//
// # Overview
//
// [Source] implements [harvest.Source] on top of go-github, so the harvest
// crawler can walk a repository tree at a given branch and download file
// blobs. [ParseRepoURL] turns a browser URL into a [RepoRef].
//
// # Usage
//
//	ref, err := github.ParseRepoURL("https://github.com/owner/repo/tree/main/src")
//	if err != nil {
//	    return err
//	}
//	src, err := github.NewSource(ctx, ref, os.Getenv("GITHUB_TOKEN"))
//	if err != nil {
//	    return err
//	}
//	entries, err := src.List(ctx, ref.Path)
//
// # Authentication
//
// A token is optional. Without one, GitHub allows 60 requests per hour;
// with one, 5000. The token is sent as a bearer token through an oauth2
// static token source.
//
// # Rate Limiting
//
// Requests are throttled proactively by a token bucket and reactively from
// the X-RateLimit headers of each response. Transport failures and 5xx
// responses are retried with exponential backoff.
package github
