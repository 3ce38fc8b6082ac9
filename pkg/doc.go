// Package pkg provides the libraries behind mdscaffold.
//
// # Overview
//
// mdscaffold turns a markdown project document into a running Next.js
// project and can harvest a GitHub repository back into such a document.
// A project document is wrapped in <ReactProject id="..."> and holds code
// blocks annotated with the file they belong to:
//
//	```tsx file="app/page.tsx"
//	import { motion } from 'framer-motion'
//	```
//
// # Architecture
//
// Scaffolding:
//
//	project document
//	       ↓
//	  [markdown] package (project id + annotated blocks)
//	       ↓
//	  [deps] package (npm packages from import statements)
//	       ↓
//	  [scaffold] package (folder, shadcn/ui, files, install, dev server)
//	       ↓
//	  [command] package (sequential subprocesses)
//
// Harvesting:
//
//	GitHub URL
//	     ↓
//	  [integrations/github] package (contents API source)
//	     ↓
//	  [harvest] package (depth-first crawl, skip patterns, blob cache)
//	     ↓
//	  [markdown.Format] (project document)
//
// # Quick Start
//
//	s := &scaffold.Scaffolder{
//	    Paths:   scaffold.StaticPath("landing-page.md"),
//	    Runner:  command.NewExecRunner(logger),
//	    Policy:  deps.DefaultPolicy(),
//	    Logger:  logger,
//	    Options: scaffold.DefaultOptions(),
//	}
//	res, err := s.Run(ctx)
//
// # Supporting Packages
//
//   - [config]: mdscaffold.toml settings
//   - [errors]: coded errors and input validation
//   - [httputil]: file cache and retry helpers
//   - [slug]: folder and project names
//   - [buildinfo]: version information set at build time
package pkg
