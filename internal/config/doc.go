// Package config loads shellkit configuration.
//
// Values come from, in increasing priority: built-in defaults, the config
// file (shellkit.yaml in the working directory, or the file passed with
// --config), SHELLKIT_* environment variables and command line flags.
//
// # Configuration File Structure
//
//	server:
//	  addr: ":8080"
//	  lang: en
//	routes:
//	  manifest: routes.yaml
//	  redirectIndexTo: /dashboard
//	content:
//	  dir: content
//	  s3:
//	    bucket: site-content
//	    prefix: fragments/
//	    region: eu-west-1
//	metrics:
//	  enabled: true
//	  namespace: shellkit
//	sentry:
//	  dsn: https://key@sentry.example.com/1
//	log:
//	  level: info
//	  format: text
//
// Nested keys map to environment variables with "_" separators, so
// content.s3.bucket is SHELLKIT_CONTENT_S3_BUCKET.
package config
