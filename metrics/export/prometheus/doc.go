// Package prometheus renders dirauth metrics in the Prometheus text
// exposition format without taking a dependency on the Prometheus client
// library.
package prometheus
