package handler

import (
	"fmt"
	"time"

	"github.com/Alwanly/fleet-dashboard/internal/models"
)

// synthesizeWorkloads derives a plausible workload summary from the
// fleet: one kube-system daemonset pod per node plus a demo deployment.
func synthesizeWorkloads(nodes []models.Node, now time.Time) models.KubernetesWorkloadsResponse {
	out := models.KubernetesWorkloadsResponse{GeneratedAt: now}

	ready := 0
	for _, n := range nodes {
		healthy := n.Status == models.NodeActive
		unhealthy := 0
		if healthy {
			ready++
		} else {
			unhealthy = 1
			out.UnhealthyPods = append(out.UnhealthyPods, models.KubernetesWorkloadPodIssue{
				Namespace:  "kube-system",
				Name:       "cilium-" + n.Hostname,
				Node:       n.Hostname,
				Phase:      "Pending",
				Reason:     "NodeNotReady",
				Restarts:   0,
				AgeSeconds: int64(now.Sub(n.CreatedAt).Seconds()),
			})
		}
		out.Nodes = append(out.Nodes, models.KubernetesWorkloadNodeSummary{Node: n.Hostname, Pods: 2, UnhealthyPods: unhealthy})
	}

	out.Namespaces = []models.KubernetesWorkloadNamespaceSummary{
		{
			Namespace:       "kube-system",
			DaemonSetsTotal: 1,
			DaemonSetsReady: boolToInt(ready == len(nodes)),
			PodsTotal:       len(nodes),
			PodsRunning:     ready,
			PodsPending:     len(nodes) - ready,
			PodsUnhealthy:   len(nodes) - ready,
		},
		{
			Namespace:        "default",
			DeploymentsTotal: 1,
			DeploymentsReady: 1,
			PodsTotal:        len(nodes),
			PodsRunning:      len(nodes),
		},
	}
	out.Resources = []models.KubernetesWorkloadResource{
		{Namespace: "kube-system", Name: "cilium", Kind: "DaemonSet", Ready: fmt.Sprintf("%d/%d", ready, len(nodes)), Images: []string{"quay.io/cilium/cilium:v1.16"}},
		{Namespace: "default", Name: "echo", Kind: "Deployment", Ready: fmt.Sprintf("%d/%d", len(nodes), len(nodes)), Images: []string{"hashicorp/http-echo:1.0"}},
	}
	if out.UnhealthyPods == nil {
		out.UnhealthyPods = []models.KubernetesWorkloadPodIssue{}
	}
	return out
}

func synthesizeNetworking(settings *models.DeploymentSettings, now time.Time) models.KubernetesNetworkingResponse {
	return models.KubernetesNetworkingResponse{
		GeneratedAt: now,
		Services: []models.KubernetesServiceInfo{
			{Namespace: "default", Name: "kubernetes", Type: "ClusterIP", ClusterIP: firstHost(settings.KubernetesServiceCIDR), Ports: []string{"443/TCP"}},
			{Namespace: "default", Name: "echo", Type: "ClusterIP", ClusterIP: "10.96.12.7", Ports: []string{"80/TCP"}},
		},
		Ingresses: []models.KubernetesIngressInfo{
			{
				Namespace:    "default",
				Name:         "echo",
				IngressClass: "traefik",
				TLS:          true,
				TLSHosts:     []string{"echo.fleet.example"},
				Rules: []models.KubernetesIngressRule{
					{Host: "echo.fleet.example", Path: "/", PathType: "Prefix", ServiceName: "echo", ServicePort: "80"},
				},
			},
		},
	}
}

// firstHost returns the .1 address of an IPv4 /n network written as
// a.b.c.d/n, or the input when it does not look like one.
func firstHost(cidr string) string {
	var a, b, c, d, bits int
	if _, err := fmt.Sscanf(cidr, "%d.%d.%d.%d/%d", &a, &b, &c, &d, &bits); err != nil {
		return cidr
	}
	return fmt.Sprintf("%d.%d.%d.%d", a, b, c, d+1)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
