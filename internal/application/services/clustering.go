package services

import (
	"math"
	"sort"
	"strconv"

	"github.com/asim/quadtree"

	"github.com/localpulse/localpulse/internal/domain/entities"
)

// clusterRadiusDegrees converts a screen radius to degrees of longitude at zoom.
func clusterRadiusDegrees(radiusPx float64, zoom int) float64 {
	return radiusPx * 360 / (entities.TileSize * math.Exp2(float64(zoom)))
}

// clusterMarkers greedily groups markers lying within radiusPx of an earlier,
// still unclustered marker. Singletons are not reported as clusters.
func clusterMarkers(markers []entities.Marker, zoom int, radiusPx float64) []entities.Cluster {
	if len(markers) < 2 || radiusPx <= 0 {
		return nil
	}

	tree := quadtree.New(quadtree.NewAABB(quadtree.NewPoint(0, 0, nil), quadtree.NewPoint(90, 180, nil)), 0, nil)
	for i, m := range markers {
		tree.Insert(quadtree.NewPoint(m.Position.Lat, m.Position.Lng, i))
	}

	radius := clusterRadiusDegrees(radiusPx, zoom)
	assigned := make([]bool, len(markers))
	var clusters []entities.Cluster

	for i, m := range markers {
		if assigned[i] {
			continue
		}
		center := quadtree.NewPoint(m.Position.Lat, m.Position.Lng, nil)
		half := quadtree.NewPoint(radius, radius, nil)

		members := []int{}
		for _, pt := range tree.Search(quadtree.NewAABB(center, half)) {
			j, ok := pt.Data().(int)
			if !ok || assigned[j] {
				continue
			}
			members = append(members, j)
		}
		if len(members) < 2 {
			continue
		}
		sort.Ints(members)

		cluster := entities.Cluster{
			ID:        "cluster-" + strconv.Itoa(len(clusters)),
			Count:     len(members),
			MarkerIDs: make([]string, 0, len(members)),
		}
		var lat, lng float64
		for _, j := range members {
			assigned[j] = true
			cluster.MarkerIDs = append(cluster.MarkerIDs, markers[j].ID)
			lat += markers[j].Position.Lat
			lng += markers[j].Position.Lng
		}
		cluster.Center = entities.Coordinates{Lat: lat / float64(len(members)), Lng: lng / float64(len(members))}
		clusters = append(clusters, cluster)
	}
	return clusters
}
