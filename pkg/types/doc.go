// Package types defines the workbench entities (profiles, tasks, notes), the
// store interfaces the backends implement, the validation gate applied before
// anything is persisted, and the standard errors shared by every component.
package types
