package project

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// A representative project document: two vector layers over a canvas
// whose extent matches the 1024x768 probe aspect ratio exactly, so the
// probed extent serializes without adjustment artifacts.
const sampleProject = `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE qgis PUBLIC 'http://mrcc.com/qgis.dtd' 'SYSTEM'>
<qgis version="3.34.2" projectname="demo">
  <title>Demo Project</title>
  <projectCrs>
    <spatialrefsys>
      <authid>EPSG:4326</authid>
      <description>WGS 84</description>
    </spatialrefsys>
  </projectCrs>
  <layer-tree-group>
    <layer-tree-layer id="layer_A" name="Lakes" checked="Qt::Checked"/>
    <layer-tree-layer id="layer_B" name="Roads" checked="Qt::Checked"/>
    <custom-order enabled="0"/>
  </layer-tree-group>
  <mapcanvas annotationsVisible="1" name="theMapCanvas">
    <units>degrees</units>
    <extent>
      <xmin>-16</xmin>
      <ymin>-12</ymin>
      <xmax>16</xmax>
      <ymax>12</ymax>
    </extent>
    <rotation>0</rotation>
  </mapcanvas>
  <projectlayers>
    <maplayer type="vector" geometry="Polygon">
      <id>layer_A</id>
      <layername>Lakes</layername>
      <datasource>./lakes.geojson</datasource>
      <provider encoding="UTF-8">ogr</provider>
      <renderer-v2 type="singleSymbol">
        <symbols>
          <symbol name="0" type="fill">
            <layer class="SimpleFill">
              <Option type="Map">
                <Option name="color" type="QString" value="227,26,28,255"/>
              </Option>
            </layer>
          </symbol>
        </symbols>
      </renderer-v2>
    </maplayer>
    <maplayer type="vector" geometry="Line">
      <id>layer_B</id>
      <layername>Roads</layername>
      <datasource>./roads.geojson</datasource>
      <provider encoding="UTF-8">ogr</provider>
      <renderer-v2 type="singleSymbol">
        <symbols>
          <symbol name="0" type="line">
            <layer class="SimpleLine">
              <prop k="color" v="31,120,180,255"/>
            </layer>
          </symbol>
        </symbols>
      </renderer-v2>
    </maplayer>
  </projectlayers>
  <properties>
    <Gui>
      <CanvasColorBluePart type="int">255</CanvasColorBluePart>
      <CanvasColorGreenPart type="int">255</CanvasColorGreenPart>
      <CanvasColorRedPart type="int">255</CanvasColorRedPart>
    </Gui>
    <QFieldSync>
      <attachmentDirs type="QStringList">
        <value>DCIM</value>
        <value>photos</value>
      </attachmentDirs>
    </QFieldSync>
  </properties>
</qgis>
`

const lakesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "big lake"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-14, -10], [14, -10], [14, 10], [-14, 10], [-14, -10]]]
      }
    }
  ]
}
`

const roadsGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "highway"},
      "geometry": {
        "type": "LineString",
        "coordinates": [[-15, -11], [15, 11]]
      }
    }
  ]
}
`

func replaceOnce(t *testing.T, s, old, new string) string {
	t.Helper()
	if !strings.Contains(s, old) {
		t.Fatalf("fixture does not contain %q", old)
	}
	return strings.Replace(s, old, new, 1)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// writeSampleProject lays out project.qgs plus its two GeoJSON
// datasources in dir and returns the project path.
func writeSampleProject(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "project.qgs")
	writeFile(t, path, sampleProject)
	writeFile(t, filepath.Join(dir, "lakes.geojson"), lakesGeoJSON)
	writeFile(t, filepath.Join(dir, "roads.geojson"), roadsGeoJSON)
	return path
}

// writeArchivedProject packs the sample project into a .qgz archive.
func writeArchivedProject(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "project.qgz")

	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer fh.Close()

	zw := zip.NewWriter(fh)
	w, err := zw.Create("project.qgs")
	if err != nil {
		t.Fatalf("failed to add archive member: %v", err)
	}
	if _, err := w.Write([]byte(sampleProject)); err != nil {
		t.Fatalf("failed to write archive member: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}

	writeFile(t, filepath.Join(dir, "lakes.geojson"), lakesGeoJSON)
	writeFile(t, filepath.Join(dir, "roads.geojson"), roadsGeoJSON)
	return path
}
