// Package cluster groups projected points and labels the groups.
//
// KMeans is a seeded k-means++ implementation: the same points, k, and seed
// always yield the same assignment. Topics labels each cluster with the most
// frequent capitalized words of its members' article texts, and Summaries
// reduces an assignment to the per-cluster label, centroid, and size written
// to the cluster label artifact.
package cluster
