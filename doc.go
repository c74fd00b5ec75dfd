// Package main runs the Inkwell API server. Inkwell is a multi-tenant
// content and tasking backend: users hold roles made of permission bits
// and manage articles, threaded comments, likes, categories and tasks
// through a JSON REST API under /api/v1.
package main
